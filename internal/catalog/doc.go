// Package catalog holds the closed set of portal applications, the roles each of them
// knows and the feature menus rendered per role.
//
// Application names are canonical lowercase. Every name or role coming from a form,
// a query parameter or the command line goes through Lookup and the Parse helpers
// before it reaches the database.
package catalog
