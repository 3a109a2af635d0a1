package metrics

import (
	"context"
	"fmt"

	"cloudscale_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Archive reçoit une copie de chaque relevé, en plus du stockage principal
type Archive interface {
	Record(ctx context.Context, snapshot models.MetricSnapshot) error
}

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS metric_snapshots (
	region text,
	ts timestamp,
	active_users int,
	ec2_instances int,
	cpu_utilization double,
	response_time int,
	load_percentage int,
	scaling_status text,
	PRIMARY KEY ((region), ts)
) WITH CLUSTERING ORDER BY (ts DESC)`

const insertSnapshot = `INSERT INTO metric_snapshots
	(region, ts, active_users, ec2_instances, cpu_utilization, response_time, load_percentage, scaling_status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// ScyllaArchive écrit les relevés dans ScyllaDB, partitionnés par région
type ScyllaArchive struct {
	session *gocql.Session
}

// NewScyllaArchive crée la table si besoin
func NewScyllaArchive(session *gocql.Session) (*ScyllaArchive, error) {
	if err := session.Query(createSnapshotsTable).Exec(); err != nil {
		return nil, fmt.Errorf("création table metric_snapshots: %w", err)
	}
	return &ScyllaArchive{session: session}, nil
}

func (a *ScyllaArchive) Record(ctx context.Context, s models.MetricSnapshot) error {
	return a.session.Query(insertSnapshot,
		s.Region, s.Timestamp, s.ActiveUsers, s.EC2Instances,
		s.CPUUtilization.InexactFloat64(), s.ResponseTime, s.LoadPercentage, s.ScalingStatus,
	).WithContext(ctx).Exec()
}

func (a *ScyllaArchive) Close() {
	a.session.Close()
}
