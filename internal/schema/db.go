package schema

import "time"

// EventRecord is the durable form of one engine audit event. Seq is
// the engine-assigned sequence number, so replays after a crash are
// idempotent upserts.
type EventRecord struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Seq       uint64 `gorm:"primarykey;autoIncrement:false"`
	EventID   string `gorm:"type:varchar(36);uniqueIndex"`
	Type      string `gorm:"type:varchar(32);index:idx01"`
	Caller    string `gorm:"type:varchar(128);index:idx02"`
	ArticleID uint64 `gorm:"index:idx03"`
	Payload   string `gorm:"type:text"`
	EmittedAt time.Time
	Status    string `gorm:"type:varchar(16);index:idx04"`
}

func (EventRecord) TableName() string {
	return "ledger_events"
}
