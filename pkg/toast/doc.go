// Package toast renders transient notifications into a document and keeps
// the stack of active toasts consistent while they come and go.
//
// A Notifier owns the lifecycle of each toast. It inserts a slot at the top
// of the list, marks it mounted after a short delay, dismisses it when its
// timer fires or the user clicks the dismiss button, and detaches it once
// the exit animation window has passed. Every insertion and removal is
// followed by a full layout pass that assigns each toast its offset,
// z-index and visibility:
//
//	n, err := toast.New(doc, body, toast.Config{Position: toast.BottomRight})
//	if err != nil {
//	    return err
//	}
//	defer n.Close()
//
//	n.Success("Changes saved", toast.WithTitle("Settings"))
//
// # Promise toasts
//
// Promise shows a loading toast, runs an operation on its own goroutine and
// swaps the content for the formatted outcome:
//
//	task := toast.Promise(n, upload, toast.PromiseOptions[File]{
//	    Loading: "Uploading...",
//	    Success: func(f File) (string, error) { return "Uploaded " + f.Name, nil },
//	    Error:   func(err error) (string, error) { return "Upload failed", nil },
//	})
//	<-task.Done()
//
// If the toast is dismissed before the operation returns, the outcome is
// discarded and the removed slot is never touched again.
//
// # Concurrency
//
// Notifiers that share a Container (see WithContainer) share one lock.
// Timer callbacks, promise commits and public methods all take it, so the
// registry and the tree are never observed half-updated. User callbacks
// run without the lock held.
//
// # Events
//
// Event is the JSON shape used by servers to request toasts from a client:
//
//	{"level": "error", "title": "Upload", "message": "Quota exceeded"}
//
// Notifier.Apply validates an Event and shows it.
package toast
