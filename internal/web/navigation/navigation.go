// Package navigation builds the page title, breadcrumbs and sidebar of
// a rendered page.
package navigation

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string

	// set by WithSidebar
	CurrentPath string
	Sidebar     []Group
	ActiveHref  string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// WithSidebar fills the sidebar of a user with role and perms on path.
func (c *Context) WithSidebar(path, role string, perms []string) *Context {
	c.CurrentPath = path
	c.Sidebar = SidebarFor(DefaultSidebar(), role, perms)
	c.ActiveHref = ""

	if it := ActiveItem(c.Sidebar, path); it != nil {
		c.ActiveHref = it.Href
	}

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// IsLinkActive reports whether href is the highlighted sidebar link.
func (c *Context) IsLinkActive(href string) bool {
	return c.ActiveHref != "" && c.ActiveHref == href
}
