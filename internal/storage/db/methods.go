package db

import "time"

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return s.ExpireTime <= now.Unix()
}

// ExpireAt returns the session expiry as a time.
func (s Session) ExpireAt() time.Time {
	return time.Unix(s.ExpireTime, 0)
}
