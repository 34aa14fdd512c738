package eventdb

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/truthledger/truthledger/internal/schema"
)

// Wdb wraps the write connection of the durable event sink.
type Wdb struct {
	Db *gorm.DB
}

func NewWdb(dsn string) (*Wdb, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Warn),
		CreateBatchSize: 200,
	})
	if err != nil {
		return nil, err
	}

	return &Wdb{Db: db}, nil
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(
		&schema.EventRecord{},
	)
}

func (w *Wdb) Close() {
	d, err := w.Db.DB()
	if err == nil {
		d.Close()
	}
}

// BatchInsertEvents stores records, ignoring seq numbers already
// present so retries after a partial flush are harmless.
func (w *Wdb) BatchInsertEvents(recs []*schema.EventRecord) error {
	if len(recs) == 0 {
		return nil
	}

	return w.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "seq"}},
		DoNothing: true,
	}).Create(&recs).Error
}

// LastStoredSeq returns the highest stored sequence number, 0 when the
// table is empty.
func (w *Wdb) LastStoredSeq() (uint64, error) {
	record := schema.EventRecord{}
	err := w.Db.Model(&schema.EventRecord{}).Order("seq desc").Limit(1).Scan(&record).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}

	return record.Seq, err
}
