package model

import "time"

const (
	RelationAbove = "above"
	RelationBelow = "below"

	PriceTypeAsk = "ask"
	PriceTypeBid = "bid"

	FeeTypeNone   = "none"
	FeeTypeBuyer  = "buyer"
	FeeTypeSeller = "seller"
)

// PriceAlert is a user-defined threshold watch on an Item. ItemID is a
// foreign key into the saved Items collection; an Item stays saved only
// while at least one alert references it.
type PriceAlert struct {
	ID                   string    `json:"id" validate:"required"`
	ItemID               string    `json:"itemId" validate:"required"`
	TargetPrice          float64   `json:"targetPrice" validate:"gt=0"`
	Relation             string    `json:"relation" validate:"oneof=above below"`
	TargetSize           string    `json:"targetSize" validate:"required"`
	PriceType            string    `json:"priceType" validate:"oneof=ask bid"`
	FeeType              string    `json:"feeType" validate:"oneof=none buyer seller"`
	Stores               []Store   `json:"stores" validate:"min=1,dive"`
	LastNotificationSent time.Time `json:"lastNotificationSent"`
}

func (a PriceAlert) Validate() error {
	return validate.Struct(a)
}

func (a PriceAlert) watchesStore(s Store) bool {
	for _, as := range a.Stores {
		if as.ID == s.ID {
			return true
		}
	}
	return false
}

// AlertWithItem joins an alert to the item it watches.
type AlertWithItem struct {
	Alert PriceAlert `json:"alert"`
	Item  Item       `json:"item"`
}
