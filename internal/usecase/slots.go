package usecase

import (
	"venue-booking/internal/data/entity"
	"venue-booking/pkg/utils"
)

// SlotTemplates holds the daily slot labels of each venue type.
type SlotTemplates map[entity.VenueType][]string

func NewSlotTemplates(cfg utils.SlotsConfig) SlotTemplates {
	return SlotTemplates{
		entity.VenuePool:       entity.HourlySlots(cfg.PoolOpen, cfg.PoolClose),
		entity.VenueTennis:     entity.HourlySlots(cfg.TennisOpen, cfg.TennisClose),
		entity.VenuePickleball: entity.HourlySlots(cfg.PickleballOpen, cfg.PickleballClose),
	}
}

func (t SlotTemplates) For(venueType entity.VenueType) []string {
	slots := t[venueType]
	out := make([]string, len(slots))
	copy(out, slots)
	return out
}
