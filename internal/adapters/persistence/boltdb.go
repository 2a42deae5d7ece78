package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

const (
	ReportsBucket     = "reports"
	ReportIndexBucket = "reports_by_time"

	DefaultDBPath = "./data/reports.db"
)

var ErrReportNotFound = errors.New("report not found")

// Storage keeps quote reports in BoltDB. Reports are stored by id and indexed
// by creation time so listings come back newest first.
type Storage struct {
	db     *bolt.DB
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database dir: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{ReportsBucket, ReportIndexBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("[reportStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) Save(r *domain.QuoteReport) error {
	data, err := sonic.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(ReportsBucket)).Put([]byte(r.ID), data); err != nil {
			return err
		}
		return tx.Bucket([]byte(ReportIndexBucket)).Put(indexKey(r), []byte(r.ID))
	})
}

// SaveBatch writes all reports in one transaction.
func (s *Storage) SaveBatch(reports []*domain.QuoteReport) error {
	if len(reports) == 0 {
		return nil
	}

	encoded := make([][]byte, len(reports))
	for i, r := range reports {
		data, err := sonic.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal report %s: %w", r.ID, err)
		}
		encoded[i] = data
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		reportsB := tx.Bucket([]byte(ReportsBucket))
		indexB := tx.Bucket([]byte(ReportIndexBucket))
		for i, r := range reports {
			if err := reportsB.Put([]byte(r.ID), encoded[i]); err != nil {
				return err
			}
			if err := indexB.Put(indexKey(r), []byte(r.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("count", len(reports)).Msg("[reportStorage] FAILED to save report batch")
		return err
	}

	log.Debug().Int("count", len(reports)).Msg("[reportStorage] saved report batch")
	return nil
}

func (s *Storage) Get(id string) (*domain.QuoteReport, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(ReportsBucket)).Get([]byte(id))
		if v == nil {
			return ErrReportNotFound
		}
		// v is only valid inside the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var r domain.QuoteReport
	if err := sonic.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return &r, nil
}

// List returns up to limit reports, newest first. Entries that no longer
// decode are skipped.
func (s *Storage) List(limit int) ([]*domain.QuoteReport, error) {
	if limit <= 0 {
		return nil, nil
	}

	reports := make([]*domain.QuoteReport, 0, limit)
	skipped := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		reportsB := tx.Bucket([]byte(ReportsBucket))
		c := tx.Bucket([]byte(ReportIndexBucket)).Cursor()
		for k, id := c.Last(); k != nil && len(reports) < limit; k, id = c.Prev() {
			v := reportsB.Get(id)
			if v == nil {
				continue
			}
			var r domain.QuoteReport
			if err := sonic.Unmarshal(v, &r); err != nil {
				log.Error().Str("id", string(id)).Err(err).Msg("[reportStorage] failed to unmarshal report, skipping")
				skipped++
				continue
			}
			reports = append(reports, &r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	if skipped > 0 {
		log.Warn().Int("loaded", len(reports)).Int("skipped", skipped).Msg("[reportStorage] report listing completed with errors")
	}
	return reports, nil
}

func (s *Storage) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(ReportsBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

// indexKey orders reports by creation time, then id.
func indexKey(r *domain.QuoteReport) []byte {
	key := make([]byte, 8+len(r.ID))
	binary.BigEndian.PutUint64(key, uint64(r.CreatedAt.UnixNano()))
	copy(key[8:], r.ID)
	return key
}
