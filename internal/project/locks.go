package project

import "log"

const lockDenialReason = "This section is being edited by another user"

// checkLocksLocked returns the denial reason if any section touched by the
// update is locked by someone other than actor. Sections are checked in
// fixed order; the first blocked one wins.
func (c *Coordinator) checkLocksLocked(update Update, actor string) string {
	for _, section := range Sections {
		if !update.touches(section) {
			continue
		}
		if holder, ok := c.state.SectionLocks[section]; ok && holder != actor {
			return lockDenialReason
		}
	}
	return ""
}

// lockSectionLocked claims a section for actor. Re-locking a section the
// actor already holds is a no-op that keeps the lock.
func (c *Coordinator) lockSectionLocked(section, actor string) error {
	if holder, ok := c.state.SectionLocks[section]; ok && holder != actor {
		log.Printf("project %s: section %s already locked, not granting to %s", c.id, section, actor)
		return &LockDeniedError{Reason: "Section is already locked by another user"}
	}
	log.Printf("project %s: locking section %s for %s", c.id, section, actor)
	c.state.SectionLocks[section] = actor
	return nil
}

// unlockSectionLocked releases a section, but only for the current holder.
func (c *Coordinator) unlockSectionLocked(section, actor string) error {
	if holder, ok := c.state.SectionLocks[section]; !ok || holder != actor {
		log.Printf("project %s: section %s not locked by %s, ignoring unlock", c.id, section, actor)
		return &LockDeniedError{Reason: "Section is not locked by this user"}
	}
	log.Printf("project %s: unlocking section %s for %s", c.id, section, actor)
	delete(c.state.SectionLocks, section)
	return nil
}

// releaseLocksLocked drops every lock held by userName. Called whenever the
// user's session is torn down, so a disconnect never strands a lock.
func (c *Coordinator) releaseLocksLocked(userName string) bool {
	released := false
	for section, holder := range c.state.SectionLocks {
		if holder == userName {
			delete(c.state.SectionLocks, section)
			released = true
		}
	}
	if released {
		log.Printf("project %s: released locks held by %s", c.id, userName)
	}
	return released
}
