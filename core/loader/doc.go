// Package loader mounts feature modules onto the HTTP router.
//
// A feature implements:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Features are added to a Manager with Register and mounted in registration
// order by LoadAll. Disabled features are skipped, a duplicate name is an error
// and the first Load failure aborts mounting.
package loader
