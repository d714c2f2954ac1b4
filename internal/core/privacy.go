package core

import (
	"time"

	"github.com/JonMunkholm/familytree/internal/genealogy"
)

// CanShow reports whether viewer may see ind. Members see everyone;
// visitors see only individuals presumed dead at now.
func CanShow(ind genealogy.Individual, viewer Viewer, now time.Time) bool {
	if ind == nil {
		return false
	}
	if viewer.Role.IsMember() {
		return true
	}
	return genealogy.IsDead(ind, now)
}
