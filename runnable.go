package roids

// Runnable is the interface implemented by systems.
// The Run method contains the system's logic and is called once per matching
// entity, or once per tick for systems without entity-bound fields.
type Runnable interface {
	Run()
}
