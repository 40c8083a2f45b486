package domain

// ClassifiedMaterial is one row of the classified materials table.
type ClassifiedMaterial struct {
	Material

	DerivedStockTotal float64 `json:"derived_stock_total"`
	StockRatio        float64 `json:"stock_ratio"`
	RatioDefined      bool    `json:"ratio_defined"`
	Need              Need    `json:"need"`
	RequestID         string  `json:"request_id"`

	// Movement counts, unrestricted by material type
	InboundCount  int `json:"inbound_count"`
	OutboundCount int `json:"outbound_count"`
	TouchingCount int `json:"touching_count"`

	// Quantities restricted to the material's own type
	YearlyInbound     map[int]float64 `json:"yearly_inbound"`
	YearlyOutbound    map[int]float64 `json:"yearly_outbound"`
	InboundQty        float64         `json:"inbound_qty"`
	OutboundQty       float64         `json:"outbound_qty"`
	InboundRegisters  int             `json:"inbound_registers"`
	OutboundRegisters int             `json:"outbound_registers"`

	TotalMovements      int     `json:"total_movements"`
	CumulativeMovements int     `json:"cumulative_movements"`
	CumulativePct       float64 `json:"cumulative_pct"`
	MovementPct         float64 `json:"movement_pct"`
	Tier                Tier    `json:"tier"`
}

// ZoneSummary represents one row of the per-tier summary
type ZoneSummary struct {
	Tier                  Tier    `json:"tier"`
	MaterialCount         int     `json:"material_count"`
	Movements             int     `json:"movements"`
	MaterialPct           float64 `json:"material_pct"`
	CumulativeMaterialPct float64 `json:"cumulative_material_pct"`
	MovementPct           float64 `json:"movement_pct"`
	CumulativeMovementPct float64 `json:"cumulative_movement_pct"`
}

// FilterOptions lists the distinct selector values present in a master table.
type FilterOptions struct {
	OwningUnits     []string `json:"owning_units"`
	MaterialTypes   []string `json:"material_types"`
	RequestingAreas []string `json:"requesting_areas"`
	MasterRows      int      `json:"master_rows"`
	MovementRows    int      `json:"movement_rows"`
	RequestRows     int      `json:"request_rows"`
}
