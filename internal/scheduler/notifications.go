package scheduler

import (
	"fmt"
	"time"

	"sneakwatch/internal/misc"
	"sneakwatch/internal/model"
)

// SendNotifications evaluates every alert against its item's current
// prices. An alert fires when it has never notified (or its last
// notification is older than the configured frequency) and the best
// qualifying price satisfies the target relation. Fired alerts are
// stamped in one batch regardless of delivery outcome: a duplicate
// notification later is preferred over a flood on transient failures.
func (s *Scheduler) SendNotifications() {
	settings := s.DB.Settings()
	frequency := time.Duration(settings.NotificationFrequency) * time.Hour

	var fired []model.PriceAlert
	for _, pair := range s.DB.AlertsWithItems() {
		alert, item := pair.Alert, pair.Item
		if !alert.LastNotificationSent.IsZero() && s.clock().Sub(alert.LastNotificationSent) < frequency {
			continue
		}
		best := model.BestPrice(item, alert)
		if best == 0 || !satisfiesTarget(alert, best) {
			continue
		}

		direction := "dropped below"
		if alert.Relation == model.RelationAbove {
			direction = "went above"
		}
		body := fmt.Sprintf("%s price %s %s%.0f! Current best price: %s%.0f",
			misc.StringLimit(item.Name, 45), direction,
			settings.Currency.Symbol, alert.TargetPrice,
			settings.Currency.Symbol, best)
		if err := s.Notifier.Push("Price Alert!", body); err != nil {
			s.Logger.Errorf("SendNotifications: Error pushing notification for Alert with ID: %s, err: %v",
				alert.ID, err)
		}
		fired = append(fired, alert)
	}
	if len(fired) == 0 {
		return
	}
	s.Logger.Infof("SendNotifications: Fired %d notification(s)", len(fired))
	if err := s.DB.MarkAlertsNotified(fired); err != nil {
		s.Logger.Errorf("SendNotifications: Error stamping notified alerts, err: %v", err)
	}
}

func satisfiesTarget(alert model.PriceAlert, best float64) bool {
	if alert.Relation == model.RelationBelow {
		return best < alert.TargetPrice
	}
	return best > alert.TargetPrice
}
