package toast

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	terrors "github.com/vango-dev/toaster/internal/errors"
)

// Kind is the toast notification type.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindLoading Kind = "loading"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindWarning, KindError, KindInfo, KindLoading:
		return true
	}
	return false
}

// ParseKind parses a kind name. "warn" is accepted for KindWarning.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "warn" {
		return KindWarning, nil
	}
	if !k.Valid() {
		return "", terrors.New("T105").
			WithDetail(strconv.Quote(s) + " is not one of success, warning, error, info, loading")
	}
	return k, nil
}

// Variant selects the visual presentation of a toast.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantOutline Variant = "outline"
	VariantFilled  Variant = "filled"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == VariantDefault || v == VariantOutline || v == VariantFilled
}

// ID identifies a toast. IDs come from a process-wide counter, so they are
// unique across notifiers that share a container.
type ID uint64

// String returns the decimal form used in the data-toast-id attribute.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// State is the lifecycle phase of a toast.
type State uint8

const (
	StateCreated State = iota
	StateMounted
	StateSettling
	StateDismissing
	StateRemoved
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateMounted:
		return "mounted"
	case StateSettling:
		return "settling"
	case StateDismissing:
		return "dismissing"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of one active toast.
type Snapshot struct {
	ID        ID
	Kind      Kind
	Message   string
	Title     string
	Variant   Variant
	State     State
	Slot      Slot
	CreatedAt time.Time
}

// ErrInvalidConfig matches every configuration error returned by New,
// Config.Validate and Notifier.Apply.
var ErrInvalidConfig = terrors.Match(terrors.CategoryConfig)

// ErrMissingHost matches errors about a missing document or mount point.
var ErrMissingHost = terrors.Match(terrors.CategoryHost)
