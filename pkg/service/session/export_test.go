package session

// PendingTasks exposes how many sessions still hold scheduled replies.
func (s *Service) PendingTasks() int { return s.pendingTasks() }
