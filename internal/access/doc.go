// Package access implements role resolution, access request submission and the
// super-admin approval workflow on top of the database controllers.
//
// Every mutating call re-checks its preconditions inside the call: the super-admin
// flag of the actor, the allow-list of the application and the pending state of the
// request. Callers may have checked the same things before, it does not matter.
package access
