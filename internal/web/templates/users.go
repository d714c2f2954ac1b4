package templates

import (
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/database"
)

// Login is the sign-in form. next is where to go after signing in.
func Login(message, next string) templ.Component {
	return view(func(hw *htmlWriter) {
		if message != "" {
			hw.component(ErrorAlert(message, "", ""))
		}
		hw.raw(`<form method="post" action="/login" class="login">`)
		hw.tag("input", "type", "hidden", "name", "next", "value", next)
		hw.raw(`<label for="username">Username</label><input id="username" name="username" autocomplete="username" required>`)
		hw.raw(`<label for="password">Password</label><input id="password" name="password" type="password" autocomplete="current-password" required>`)
		hw.raw(`<button type="submit">Sign in</button></form>`)
	})
}

// Trees lists the family trees on the site.
func Trees(trees []core.Tree) templ.Component {
	return view(func(hw *htmlWriter) {
		if len(trees) == 0 {
			hw.elem("p", "There are no family trees.", "class", "empty")
			return
		}
		hw.raw(`<ul class="trees">`)
		for _, t := range trees {
			hw.raw(`<li>`)
			hw.tag("a", "href", "/tree/"+t.Name)
			hw.text(t.Title)
			hw.end("a")
			hw.raw(` `)
			hw.tag("a", "href", "/tree/"+t.Name+"/census", "class", "secondary")
			hw.text("Census")
			hw.end("a")
			hw.raw(`</li>`)
		}
		hw.raw(`</ul>`)
	})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var userColumns = []struct {
	Sort  database.UserSortColumn
	Title string
}{
	{database.SortUserName, "Username"},
	{database.SortRealName, "Name"},
	{database.SortEmail, "Email"},
	{database.SortLanguage, "Language"},
	{database.SortRegistered, "Date registered"},
	{database.SortLastLogin, "Last signed in"},
	{database.SortVerified, "Verified"},
	{database.SortAdminApprove, "Approved"},
}

// UserListQuery is the list state echoed back in links.
type UserListQuery struct {
	Search string
	Sort   database.UserSortColumn
	Desc   bool
}

func (q UserListQuery) link(page int, sort database.UserSortColumn, desc bool) string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	v.Set("sort", string(sort))
	if desc {
		v.Set("dir", "desc")
	}
	v.Set("page", strconv.Itoa(page))
	return "/admin/users?" + v.Encode()
}

// UserList renders one page of the user list.
func UserList(page core.UserPage, q UserListQuery) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.raw(`<form method="get" action="/admin/users" class="search">`)
		hw.tag("input", "type", "search", "name", "search", "value", q.Search, "placeholder", "Search")
		hw.raw(`<button type="submit">Search</button></form>`)
		hw.raw(`<p class="actions"><a href="/admin/users/new">Add a user</a> <a href="/admin/users/cleanup">Delete inactive users</a></p>`)

		hw.raw(`<table class="users"><thead><tr>`)
		for _, col := range userColumns {
			desc := col.Sort == q.Sort && !q.Desc
			hw.raw(`<th scope="col">`)
			hw.tag("a", "href", q.link(1, col.Sort, desc))
			hw.text(col.Title)
			hw.end("a")
			hw.raw(`</th>`)
		}
		hw.raw(`</tr></thead><tbody>`)
		for _, u := range page.Users {
			hw.tag("tr", "data-user-id", strconv.Itoa(int(u.ID)))
			hw.raw(`<td>`)
			hw.tag("a", "href", "/admin/users/"+strconv.Itoa(int(u.ID)))
			hw.text(u.UserName)
			hw.end("a")
			hw.raw(`</td>`)
			hw.elem("td", u.RealName)
			hw.elem("td", u.Email)
			hw.elem("td", u.Language)
			hw.elem("td", formatDate(u.RegisteredAt))
			hw.elem("td", formatDate(u.LastLogin))
			hw.elem("td", yesNo(u.Verified))
			hw.elem("td", yesNo(u.VerifiedByAdmin))
			hw.end("tr")
		}
		hw.raw(`</tbody></table>`)

		hw.raw(`<p class="paging">`)
		hw.text("Showing " + strconv.FormatInt(page.Filtered, 10) + " of " + strconv.FormatInt(page.Total, 10) + " users")
		if page.Page > 1 {
			hw.raw(` `)
			hw.tag("a", "href", q.link(page.Page-1, q.Sort, q.Desc), "rel", "prev")
			hw.text("Previous")
			hw.end("a")
		}
		if int64(page.Page*page.PageSize) < page.Filtered {
			hw.raw(` `)
			hw.tag("a", "href", q.link(page.Page+1, q.Sort, q.Desc), "rel", "next")
			hw.text("Next")
			hw.end("a")
		}
		hw.raw(`</p>`)
	})
}

// TreeRole is the role of the edited user in one tree.
type TreeRole struct {
	Tree core.Tree
	Role core.Role
}

// UserForm creates (user nil) or edits an account.
func UserForm(user *core.User, roles []TreeRole) templ.Component {
	return view(func(hw *htmlWriter) {
		action := "/admin/users"
		u := core.User{}
		if user != nil {
			u = *user
			action += "/" + strconv.Itoa(int(u.ID))
		}
		hw.tag("form", "method", "post", "action", action, "class", "user-form")
		input(hw, "username", "Username", "text", u.UserName, true)
		input(hw, "realname", "Real name", "text", u.RealName, true)
		input(hw, "email", "Email address", "email", u.Email, true)
		input(hw, "password", "Password", "password", "", user == nil)
		input(hw, "language", "Language", "text", u.Language, false)
		checkbox(hw, "verified", "Email address verified", u.Verified)
		if user != nil {
			checkbox(hw, "approved", "Approved by administrator", u.VerifiedByAdmin)
		}
		checkbox(hw, "canadmin", "Administrator", u.SiteAdmin)

		if len(roles) > 0 {
			hw.raw(`<table class="roles"><thead><tr><th scope="col">Family tree</th><th scope="col">Role</th></tr></thead><tbody>`)
			for _, tr := range roles {
				name := "role_" + strconv.Itoa(int(tr.Tree.ID))
				hw.raw(`<tr>`)
				hw.elem("td", tr.Tree.Title)
				hw.raw(`<td>`)
				hw.tag("select", "name", name)
				for _, role := range core.Roles {
					if role == tr.Role {
						hw.tag("option", "value", string(role), "selected", "selected")
					} else {
						hw.tag("option", "value", string(role))
					}
					hw.text(role.Title())
					hw.end("option")
				}
				hw.raw(`</select></td></tr>`)
			}
			hw.raw(`</tbody></table>`)
		}
		hw.raw(`<button type="submit">Save</button></form>`)

		if user != nil {
			hw.tag("form", "method", "post", "action", action+"/delete", "class", "delete",
				"onsubmit", "return confirm('Delete this user?')")
			hw.raw(`<button type="submit" class="danger">Delete</button></form>`)
		}
	})
}

func input(hw *htmlWriter, name, label, typ, value string, required bool) {
	hw.elem("label", label, "for", name)
	attrs := []string{"id", name, "name", name, "type", typ, "value", value}
	if required {
		attrs = append(attrs, "required", "required")
	}
	hw.tag("input", attrs...)
}

func checkbox(hw *htmlWriter, name, label string, checked bool) {
	attrs := []string{"id", name, "name", name, "type", "checkbox", "value", "1"}
	if checked {
		attrs = append(attrs, "checked", "checked")
	}
	hw.tag("input", attrs...)
	hw.elem("label", label, "for", name)
}

// UserCleanup lists the accounts that may be deleted.
func UserCleanup(report core.CleanupReport) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.raw(`<form method="get" action="/admin/users/cleanup" class="cleanup-months">`)
		hw.raw(`<label for="months">Inactive for more than</label><select id="months" name="months" onchange="this.form.submit()">`)
		for _, m := range core.CleanupMonths {
			attrs := []string{"value", strconv.Itoa(m)}
			if m == report.Months {
				attrs = append(attrs, "selected", "selected")
			}
			hw.tag("option", attrs...)
			hw.text(strconv.Itoa(m) + " months")
			hw.end("option")
		}
		hw.raw(`</select></form>`)

		if len(report.Inactive) == 0 && len(report.Unverified) == 0 {
			hw.elem("p", "Nothing found to cleanup", "class", "empty")
			return
		}

		hw.raw(`<form method="post" action="/admin/users/cleanup" class="cleanup">`)
		hw.tag("input", "type", "hidden", "name", "months", "value", strconv.Itoa(report.Months))
		cleanupGroup(hw, "Inactive users", report.Inactive, func(u core.User) string {
			if u.LastLogin.IsZero() {
				return "never signed in"
			}
			return "last signed in " + formatDate(u.LastLogin)
		})
		cleanupGroup(hw, "Unverified users", report.Unverified, func(u core.User) string {
			return "registered " + formatDate(u.RegisteredAt)
		})
		hw.raw(`<button type="submit" class="danger">Delete</button></form>`)
	})
}

func cleanupGroup(hw *htmlWriter, heading string, users []core.User, detail func(core.User) string) {
	if len(users) == 0 {
		return
	}
	hw.elem("h2", heading)
	hw.raw(`<ul class="cleanup-users">`)
	for _, u := range users {
		id := strconv.Itoa(int(u.ID))
		hw.raw(`<li>`)
		if u.SiteAdmin {
			hw.elem("span", u.UserName+" ("+detail(u)+", administrator, kept)", "class", "kept")
		} else {
			hw.tag("input", "type", "checkbox", "name", "user_id", "value", id, "id", "del-"+id, "checked", "checked")
			hw.elem("label", u.UserName+" ("+detail(u)+")", "for", "del-"+id)
		}
		hw.raw(`</li>`)
	}
	hw.raw(`</ul>`)
}
