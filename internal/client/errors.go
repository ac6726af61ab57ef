package client

// Op names a client operation.
type Op string

const (
	OpSubmit     Op = "submit"
	OpFetchStats Op = "fetch stats"
)

// Error is returned for transport failures.  Message is meant for end users;
// the underlying cause is only reachable through errors.Unwrap.
type Error struct {
	Op      Op
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Messages holds the user-facing text for each operation.
type Messages struct {
	Submit     string
	FetchStats string
}

// For returns the message for op.
func (m Messages) For(op Op) string {
	if op == OpFetchStats {
		return m.FetchStats
	}
	return m.Submit
}

var locales = map[string]Messages{
	"en": {
		Submit:     "Unable to submit data",
		FetchStats: "Unable to fetch statistics",
	},
	"th": {
		Submit:     "ไม่สามารถส่งข้อมูลได้",
		FetchStats: "ไม่สามารถดึงข้อมูลสถิติได้",
	},
}

// MessagesFor returns the messages for locale, falling back to English.
func MessagesFor(locale string) Messages {
	if m, ok := locales[locale]; ok {
		return m
	}
	return locales["en"]
}
