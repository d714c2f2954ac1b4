package core

import (
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	_ "github.com/JonMunkholm/familytree/internal/census/catalog"
	"github.com/JonMunkholm/familytree/internal/database"
)

var testTree = Tree{ID: 1, Name: "demo", Title: "Demo tree"}

var (
	member  = Viewer{User: &User{ID: 7, UserName: "member"}, Role: RoleMember}
	visitor = Viewer{Role: RoleNone}
	manager = Viewer{User: &User{ID: 1, UserName: "admin", SiteAdmin: true}, Role: RoleManager}
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// newTestService returns a service over a fake database with a fixed clock.
func newTestService(t *testing.T, opts ...Option) (*Service, *fakeDB, *testClock) {
	t.Helper()
	clock := newTestClock()
	db := newFakeDB()
	db.now = clock.Now
	db.trees = []database.Tree{{TreeID: testTree.ID, Name: testTree.Name, Title: testTree.Title}}

	base := []Option{WithClock(clock.Now), WithBcryptCost(bcrypt.MinCost)}
	svc := newService(db, append(base, opts...)...)
	return svc, db, clock
}

// addSmithFamily loads three generations:
//
//	Thomas Smith (1790-1860) + Elizabeth Brown (1795-1870)
//	└── John Smith (1820-) + Mary Jones (1825-)        F1, married 1845
//	    ├── William Smith (1846-)                       F3, no children
//	    ├── Ann Smith (1855-)
//	    └── Sarah Smith (1848-1849)
//
//	George Brown (1920-2000)
//	└── Robert Brown (1950-)                            living
func addSmithFamily(db *fakeDB) {
	db.addIndividual("I6", "Thomas", "Smith", "M", 1790, 1860, "London, England")
	db.addIndividual("I7", "Elizabeth", "Brown", "F", 1795, 1870, "Boston, Massachusetts, United States")
	db.addIndividual("I1", "John", "Smith", "M", 1820, 0, "Boston, Massachusetts, United States")
	db.addIndividual("I2", "Mary", "Jones", "F", 1825, 0, "Cork, Ireland")
	db.addIndividual("I3", "William", "Smith", "M", 1846, 0, "New York, New York, United States")
	db.addIndividual("I4", "Ann", "Smith", "F", 1855, 0, "Boston, Massachusetts, United States")
	db.addIndividual("I5", "Sarah", "Smith", "F", 1848, 1849, "Boston, Massachusetts, United States")

	db.addFamily("F0", "I6", "I7", 1815, "I1")
	db.addFamily("F1", "I1", "I2", 1845, "I3", "I4", "I5")
	db.addFamily("F3", "I3", "", 1870)

	db.addIndividual("I22", "George", "Brown", "M", 1920, 2000, "Leeds, England")
	db.addIndividual("I20", "Robert", "Brown", "M", 1950, 0, "Leeds, England")
	db.addFamily("F10", "I22", "", 1948, "I20")
}
