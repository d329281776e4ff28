package model

import (
	"github.com/mihaipriboi/HackitAll2025/devcode"
	"github.com/mihaipriboi/HackitAll2025/world"
)

type AirportStock struct {
	Code     string                 `json:"code"`
	Name     string                 `json:"name"`
	Status   world.StockStatus      `json:"status"`
	Stock    devcode.PerClassAmount `json:"stock"`
	Capacity devcode.PerClassAmount `json:"capacity"`
}

func AirportStockOf(a world.Airport, stock world.PerClass[int], status world.StockStatus) AirportStock {
	return AirportStock{
		Code:     a.Code,
		Name:     a.Name,
		Status:   status,
		Stock:    devcode.AmountOf(stock),
		Capacity: devcode.AmountOf(a.Capacity),
	}
}

type RunState struct {
	Running bool `json:"running"`
}
