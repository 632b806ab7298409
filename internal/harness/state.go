package harness

// State はハーネスの状態
type State int

const (
	StateIdle State = iota
	StateDiscover
	StateClientReady
	StateBucketEnsured
	StateCorpusReady
	StateSeeded
	StatePass
	StateDone
	StateFailed
)

// String は状態の文字列表現を返す
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscover:
		return "discover"
	case StateClientReady:
		return "client_ready"
	case StateBucketEnsured:
		return "bucket_ensured"
	case StateCorpusReady:
		return "corpus_ready"
	case StateSeeded:
		return "seeded"
	case StatePass:
		return "pass"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
