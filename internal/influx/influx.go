// Package influx ships bridge performance metrics to InfluxDB. When
// the server is unreachable the manager degrades to a gzip backup
// file of line protocol that can be replayed later.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/config"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
)

// DefaultBucketNames are the default InfluxDB buckets used by the bridge.
var DefaultBucketNames = []string{
	"bridge_performance",
	"scene_stats",
}

// bucketRetentionSeconds keeps ninety days of samples.
const bucketRetentionSeconds = 60 * 60 * 24 * 90

// Manager owns the InfluxDB client and one write API per bucket, or
// the backup writer when the server never answered.
type Manager struct {
	client  influxdb2.Client
	writers map[string]influxdb2_api.WriteAPI
	backup  *gzip.Writer

	connected  bool
	buckets    []string
	log        zerolog.Logger
	backupPath string
	org        string
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		writers:    make(map[string]influxdb2_api.WriteAPI),
		buckets:    DefaultBucketNames,
		log:        log,
		backupPath: backupPath,
	}
}

// Ready reports whether points have somewhere to go, the server or
// the backup file.
func (m *Manager) Ready() bool {
	return m.connected || m.backup != nil
}

// Connect establishes a connection to InfluxDB. A server that does
// not answer the ping is not an error; the manager falls back to the
// backup file and the run continues.
func (m *Manager) Connect(cfg config.InfluxConfig) error {
	if !cfg.Enabled {
		return errors.New("influx.enabled is false")
	}
	m.org = cfg.Org

	m.client = influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	running, err := m.client.Ping(context.Background())
	if err != nil || !running {
		m.log.Warn().Str("backupPath", m.backupPath).
			Msg("InfluxDB did not answer, writing line protocol to backup file")
		return m.openBackup()
	}

	m.connected = true
	if err := m.ensureSchema(context.Background()); err != nil {
		return err
	}
	m.startWriters()
	m.log.Info().Msg("InfluxDB client initialized")
	return nil
}

// openBackup opens the gzip backup writer, appending to whatever an
// earlier run left behind.
func (m *Manager) openBackup() error {
	if m.backup != nil {
		return nil
	}
	file, err := os.OpenFile(m.backupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backup = gzip.NewWriter(file)
	return nil
}

// ensureSchema makes sure the organization and every bucket exist.
func (m *Manager) ensureSchema(ctx context.Context) error {
	orgAPI := m.client.OrganizationsAPI()

	influxOrg, err := orgAPI.FindOrganizationByName(ctx, m.org)
	if err != nil {
		m.log.Info().Str("org", m.org).Msg("Organization not found, creating")
		influxOrg, err = orgAPI.CreateOrganizationWithName(ctx, m.org)
		if err != nil {
			m.log.Error().Err(err).Str("org", m.org).Msg("Error creating organization")
			return err
		}
	}

	bucketAPI := m.client.BucketsAPI()
	for _, bucket := range m.buckets {
		if _, err := bucketAPI.FindBucketByName(ctx, bucket); err == nil {
			continue
		}
		m.log.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err := bucketAPI.CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: bucketRetentionSeconds,
		})
		if err != nil {
			m.log.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
			return err
		}
	}
	return nil
}

// startWriters opens one async write API per bucket and drains each
// one's error channel into the log.
func (m *Manager) startWriters() {
	for _, bucket := range m.buckets {
		w := m.client.WriteAPI(m.org, bucket)
		m.writers[bucket] = w

		go func(bucket string, errCh <-chan error) {
			for writeErr := range errCh {
				m.log.Error().Err(writeErr).Str("bucket", bucket).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, w.Errors())
	}
	m.log.Debug().Msg("InfluxDB writers initialized")
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error {
	if m.connected {
		w, ok := m.writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		w.WritePoint(point)
		return nil
	}

	if m.backup == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.backup.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending writes and shuts down whichever sink served
// the run, the client or the backup file.
func (m *Manager) Close() error {
	if m.connected {
		for _, w := range m.writers {
			w.Flush()
		}
		m.client.Close()
		return nil
	}
	if m.backup != nil {
		return m.backup.Close()
	}
	return nil
}
