package hotkey

import "github.com/TanaroSch/appkeys/internal/binding"

// Handle is the opaque token a Backend returns for a claimed combination.
// It is required to release the claim.
type Handle interface{}

// Backend abstracts the OS global-hotkey facility so the engine can run
// against different display servers, and against fakes in tests.
type Backend interface {
	// Name returns a human-readable name for this backend (for logging).
	Name() string

	// Install sets the process-wide callback that receives the dispatch id
	// of every pressed hotkey. It is called at most once per backend. The
	// callback may run on any goroutine or OS thread.
	Install(listener func(dispatchID uint32)) error

	// Register claims keyCode+mods system-wide. Presses of the combination
	// are reported to the listener with dispatchID. An error means nothing
	// was claimed.
	Register(keyCode uint32, mods binding.Modifier, dispatchID uint32) (Handle, error)

	// Unregister releases a claim returned by Register.
	Unregister(h Handle) error
}
