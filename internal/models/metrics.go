package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ScalingHealthy = "healthy"
	ScalingScaling = "scaling"

	DefaultRegion = "ap-south-1a"
)

// MetricSnapshot est un relevé calculé, persisté et diffusé à chaque tick
type MetricSnapshot struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	Timestamp      time.Time       `json:"timestamp" gorm:"index;not null"`
	ActiveUsers    int             `json:"activeUsers" gorm:"not null"`
	EC2Instances   int             `json:"ec2Instances" gorm:"column:ec2_instances;not null"`
	CPUUtilization decimal.Decimal `json:"cpuUtilization" gorm:"column:cpu_utilization;type:numeric(5,2);not null"`
	ResponseTime   int             `json:"responseTime" gorm:"not null"`
	LoadPercentage int             `json:"loadPercentage" gorm:"not null"`
	ScalingStatus  string          `json:"scalingStatus" gorm:"not null;default:healthy"`
	Region         string          `json:"region" gorm:"not null"`
}

func (MetricSnapshot) TableName() string {
	return "aws_metrics"
}
