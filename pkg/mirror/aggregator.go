package mirror

import (
	"context"
	"errors"

	"github.com/Heprex/automation/pkg/app"
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/ontap"
	"github.com/Heprex/automation/utils/concurrent"
	"github.com/Heprex/automation/utils/log"
)

// ClusterPool hands out executors per cluster. Satisfied by *ontap.Pool.
type ClusterPool interface {
	Get(ctx context.Context, cluster string) (ontap.Executor, error)
}

// Aggregator queries both legs of every volume of an application and folds
// the results into one ApplicationStatus.
type Aggregator struct {
	pool       ClusterPool
	maxWorkers int
}

// NewAggregator builds an aggregator. maxWorkers bounds concurrent leg
// queries; <= 0 means one in-flight query per leg.
func NewAggregator(pool ClusterPool, maxWorkers int) *Aggregator {
	return &Aggregator{pool: pool, maxWorkers: maxWorkers}
}

// legQuery is one leg to look up: the destination path on its owning cluster.
type legQuery struct {
	volume      string
	side        Side
	cluster     string
	source      ontap.Path
	destination ontap.Path
}

// legQueries lists both legs of every volume. The p2d leg lives on the DR
// cluster, the d2p leg on the production cluster; only a leg's destination
// cluster knows the relationship.
func legQueries(application *app.Application, volumes []string) []legQuery {
	queries := make([]legQuery, 0, 2*len(volumes))
	for _, volume := range volumes {
		prodPath := ontap.Path{Vserver: application.ProdVserver, Volume: volume}
		drPath := ontap.Path{Vserver: application.DRVserver, Volume: volume}

		queries = append(queries, legQuery{
			volume:      volume,
			side:        SideProdToDR,
			cluster:     application.DRCluster,
			source:      prodPath,
			destination: drPath,
		})
		queries = append(queries, legQuery{
			volume:      volume,
			side:        SideDRToProd,
			cluster:     application.ProdCluster,
			source:      drPath,
			destination: prodPath,
		})
	}
	return queries
}

// Collect gathers the status of every listed volume. An empty volumes slice
// means all volumes of the application. One failing leg never aborts the
// others; it is recorded on its relationship and flips Partial.
func (a *Aggregator) Collect(ctx context.Context, application *app.Application,
	volumes []string) *ApplicationStatus {
	if len(volumes) == 0 {
		volumes = application.VolumeNames()
	}

	queries := legQueries(application, volumes)
	results := concurrent.ForEach(ctx, queries, a.maxWorkers,
		func(ctx context.Context, q legQuery) (*Relationship, error) {
			return a.queryLeg(ctx, application.Name, q)
		})

	status := &ApplicationStatus{App: application.Name}
	byVolume := make(map[string]*VolumeStatus, len(volumes))
	for _, volume := range volumes {
		vs := &VolumeStatus{Volume: volume}
		byVolume[volume] = vs
		status.Volumes = append(status.Volumes, vs)
	}

	for i, result := range results {
		q := queries[i]
		rel := result.Value
		if result.Err != nil {
			rel = failedLeg(application.Name, q, result.Err)
			status.Partial = true
			log.AddContext(ctx).Warningf("Query %s leg of %s/%s failed. error: %v",
				q.side, application.Name, q.volume, result.Err)
		}

		vs := byVolume[q.volume]
		switch q.side {
		case SideProdToDR:
			vs.ProdToDR = rel
		case SideDRToProd:
			vs.DRToProd = rel
		}
	}

	status.Direction = ResolveDirection(status.Volumes)
	return status
}

// queryLeg looks up one relationship on its destination cluster. A nil
// relationship with nil error means the leg does not exist.
func (a *Aggregator) queryLeg(ctx context.Context, appName string, q legQuery) (*Relationship, error) {
	executor, err := a.pool.Get(ctx, q.cluster)
	if err != nil {
		return nil, err
	}

	output, err := executor.Execute(ctx, ontap.SnapMirrorShow(q.destination))
	if err != nil {
		return nil, err
	}

	parsed := ParseSnapMirrorShow(output, q.destination)
	if !parsed.Found {
		return nil, nil
	}

	return &Relationship{
		App:         appName,
		Volume:      q.volume,
		Side:        q.side,
		Source:      q.source,
		Destination: q.destination,
		State:       parsed.State,
		RawState:    parsed.RawState,
		Status:      parsed.Status,
		LagTime:     parsed.LagTime,
		Schedule:    parsed.Schedule,
		Policy:      parsed.Policy,
	}, nil
}

// failedLeg records a query failure as a relationship in an unknown or
// cancelled state, so the failure stays attached to its volume and side.
func failedLeg(appName string, q legQuery, err error) *Relationship {
	state := constants.StateUnknown
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		state = constants.StateCancelled
	}

	return &Relationship{
		App:         appName,
		Volume:      q.volume,
		Side:        q.side,
		Source:      q.source,
		Destination: q.destination,
		State:       state,
		Err:         err,
	}
}
