package usecase

import (
	"github.com/driver4567/StockvsTrend/internal/domain/models"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
)

// Dashboard is the single entry point used by the transports. Editing the
// query never fetches; only Submit does.
type Dashboard struct {
	state  *QueryStore
	orch   *Orchestrator
	logger *applogger.Logger
}

func NewDashboard(state *QueryStore, orch *Orchestrator, l *applogger.Logger) *Dashboard {
	return &Dashboard{state: state, orch: orch, logger: l}
}

// Query returns the query being edited.
func (d *Dashboard) Query() models.QueryState {
	return d.state.Current()
}

// Update replaces one field of the edited query.
func (d *Dashboard) Update(field, value string) (models.QueryState, error) {
	f, err := models.ParseQueryField(field)
	if err != nil {
		return d.state.Current(), err
	}
	q, err := d.state.Update(f, value)
	if err != nil {
		d.logger.Debug("query update rejected",
			applogger.String("field", field),
			applogger.Error(err),
		)
		return q, err
	}
	return q, nil
}

// Reset restores the configured defaults without dispatching.
func (d *Dashboard) Reset() models.QueryState {
	return d.state.Reset()
}

// Submit dispatches the edited query. With refresh set, unchanged channels
// are fetched again. An unset date range yields ErrDateRangeUnset and the
// unchanged output.
func (d *Dashboard) Submit(refresh bool) (models.Output, error) {
	q := d.state.Current()
	if !q.Complete() {
		return d.orch.Output(), models.ErrDateRangeUnset
	}
	if refresh {
		return d.orch.Redispatch(q), nil
	}
	return d.orch.Dispatch(q), nil
}

// Output returns the latest series snapshot.
func (d *Dashboard) Output() models.Output {
	return d.orch.Output()
}

// Subscribe registers an observer for series snapshots.
func (d *Dashboard) Subscribe(obs Observer) (unsubscribe func()) {
	return d.orch.Subscribe(obs)
}
