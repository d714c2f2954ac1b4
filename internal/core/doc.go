// Package core provides the business logic of the family tree server.
//
// # Architecture
//
// The package sits between the HTTP layer (internal/web) and the database
// layer (internal/database):
//
//	Web Handler → core.Service → database.Querier → PostgreSQL
//	                    ↓
//	             SettingsCache (Redis or in-process)
//
// Service is the single entry point. It is stateless apart from the settings
// cache and is safe for concurrent use.
//
// # Records
//
// Individuals and families are loaded through a Loader, which memoizes every
// record it reads and implements the genealogy.Individual and
// genealogy.Family contracts. A Loader belongs to one request and is not
// safe for concurrent use.
//
// # Census Reports
//
// CensusReport assembles a household around a head of household and
// evaluates every column of a registered census (see internal/census) for
// each member.
//
// # Modules
//
// Dashboard blocks and sidebars register a ModuleInfo at init time. Their
// visibility per tree is governed by access levels stored in module_privacy
// and compared against the viewer's role.
//
// # Housekeeping
//
// Housekeeping removes stale sessions, old log rows, and expired cache and
// thumbnail files. It runs after a random fraction of requests and on a
// ticker (see StartHousekeeping).
//
// # Error Handling
//
// Operations return sentinel errors wrapped with context. MapError converts
// any error into a UserMessage with a support code.
package core
