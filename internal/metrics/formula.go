package metrics

import (
	"time"

	"cloudscale_back_end/internal/models"

	"github.com/shopspring/decimal"
)

const (
	ScaleThreshold   = 4
	BaseInstances    = 2
	MaxInstances     = 10
	BaseCPU          = 20
	MaxCPU           = 90
	BaseResponseTime = 200
	MaxLoad          = 95
)

// Reading est le résultat du calcul pour un nombre d'utilisateurs actifs
type Reading struct {
	ActiveUsers    int
	EC2Instances   int
	CPUUtilization decimal.Decimal
	ResponseTime   int
	LoadPercentage int
	ScalingStatus  string
}

// Compute applique la règle d'auto-scaling simulée.
// loadFactor = activeUsers / 10; les calculs restent entiers pour éviter
// les erreurs d'arrondi des flottants.
func Compute(activeUsers int) Reading {
	if activeUsers < 0 {
		activeUsers = 0
	}

	shouldScale := activeUsers >= ScaleThreshold

	instances := BaseInstances
	if shouldScale {
		instances = min(activeUsers/2+1, MaxInstances)
	}

	// 20 + loadFactor*50 = 20 + 5*activeUsers
	cpu := decimal.NewFromInt(int64(BaseCPU + 5*activeUsers))
	if cpu.GreaterThan(decimal.NewFromInt(MaxCPU)) {
		cpu = decimal.NewFromInt(MaxCPU)
	}

	status := models.ScalingHealthy
	if shouldScale {
		status = models.ScalingScaling
	}

	return Reading{
		ActiveUsers:    activeUsers,
		EC2Instances:   instances,
		CPUUtilization: cpu.Round(2),
		// floor(200 + loadFactor*300) = 200 + 30*activeUsers
		ResponseTime: BaseResponseTime + 30*activeUsers,
		// floor(loadFactor*100) = 10*activeUsers
		LoadPercentage: min(10*activeUsers, MaxLoad),
		ScalingStatus:  status,
	}
}

// Snapshot convertit la lecture en ligne à persister
func (r Reading) Snapshot(at time.Time, region string) models.MetricSnapshot {
	if region == "" {
		region = models.DefaultRegion
	}
	return models.MetricSnapshot{
		Timestamp:      at,
		ActiveUsers:    r.ActiveUsers,
		EC2Instances:   r.EC2Instances,
		CPUUtilization: r.CPUUtilization,
		ResponseTime:   r.ResponseTime,
		LoadPercentage: r.LoadPercentage,
		ScalingStatus:  r.ScalingStatus,
		Region:         region,
	}
}
