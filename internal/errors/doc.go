// Package errors provides structured, coded errors for toaster.
//
// Errors carry a stable code (e.g. "T101"), a category, a short message and
// optional detail and suggestion text. Only construction and configuration
// paths return errors; the toast lifecycle itself never fails loudly.
//
// # Error Categories
//
//   - config: invalid notifier or file configuration
//   - host: problems with the rendering host (missing mount point)
//   - cli: command-line usage problems
//
// # Usage
//
//	err := errors.New("T101").
//	    WithDetail(`position "middle-left" is not one of top-left, top-right, bottom-left, bottom-right`).
//	    WithSuggestion("Use one of the four corner positions")
//
//	fmt.Fprintln(os.Stderr, err.Format())
package errors
