package schema

const (
	StoredStatus = "stored"
	FailedStatus = "failed"
)
