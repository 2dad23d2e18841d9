package ingress

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/breadworks/swpe/internal/domain/planning"
)

var structValidator = validator.New()

// Validate turns a raw Input into an immutable planning.Bundle, or
// returns *planning.ErrInvalidInput / *planning.ErrAliasUnresolved. This
// is the single point at which input errors may surface — every
// downstream component trusts the Bundle.
func Validate(in Input) (*planning.Bundle, error) {
	if err := structValidator.Struct(in); err != nil {
		return nil, &planning.ErrInvalidInput{Reason: err.Error()}
	}

	if !(in.SnapshotDate.Before(in.PlanningStart) || in.SnapshotDate.Equal(in.PlanningStart)) {
		return nil, &planning.ErrInvalidInput{Reason: "snapshot_date must be <= planning_start"}
	}
	if in.PlanningEnd.Before(in.PlanningStart) {
		return nil, &planning.ErrInvalidInput{Reason: "planning_end must be >= planning_start"}
	}

	nodes, err := buildNodes(in.Nodes)
	if err != nil {
		return nil, err
	}

	products, err := buildProducts(in.Products)
	if err != nil {
		return nil, err
	}

	resolve := aliasResolver(in.ProductAliases, products)

	routes, err := buildRoutes(in.Routes, nodes)
	if err != nil {
		return nil, err
	}

	trucks, err := buildTrucks(in.TruckSchedules, nodes)
	if err != nil {
		return nil, err
	}

	calendar := buildCalendar(in.LaborCalendar)

	forecast, err := buildForecast(in.Forecast, nodes, products, resolve)
	if err != nil {
		return nil, err
	}

	initInv, err := buildInitialInventory(in.InitialInventory, nodes, products, resolve)
	if err != nil {
		return nil, err
	}

	costs := buildCosts(in.CostStructure, routes)

	if err := checkReachability(nodes, routes, forecast, initInv); err != nil {
		return nil, err
	}

	return &planning.Bundle{
		Nodes:            nodes,
		Routes:           routes,
		Products:         products,
		TruckSchedules:   trucks,
		LaborCalendar:    calendar,
		Costs:            costs,
		Forecast:         forecast,
		InitialInventory: initInv,
		SnapshotDate:     in.SnapshotDate,
		PlanningStart:    in.PlanningStart,
		PlanningEnd:      in.PlanningEnd,
		Horizon:          planning.NewHorizon(in.PlanningStart, in.PlanningEnd),
	}, nil
}

func buildNodes(inputs []NodeInput) (map[string]planning.Node, error) {
	nodes := make(map[string]planning.Node, len(inputs))
	for _, ni := range inputs {
		if _, dup := nodes[ni.ID]; dup {
			return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("duplicate node id %q", ni.ID)}
		}
		var caps planning.NodeCapability
		add := func(has bool, bit planning.NodeCapability) {
			if has {
				caps |= bit
			}
		}
		add(ni.Produces, planning.CapProduces)
		add(ni.StoresAmbient, planning.CapStoresAmbient)
		add(ni.StoresFrozen, planning.CapStoresFrozen)
		add(ni.StoresThawed, planning.CapStoresThawed)
		add(ni.CanThaw, planning.CapCanThaw)
		add(ni.CanFreeze, planning.CapCanFreeze)
		add(ni.HasDemand, planning.CapHasDemand)

		if ni.CanThaw && !caps.Has(planning.CapStoresFrozen) {
			return nil, &planning.ErrInvalidInput{
				Reason: fmt.Sprintf("node %q can_thaw but does not store frozen", ni.ID),
			}
		}
		if ni.CanFreeze && !caps.Has(planning.CapStoresAmbient) {
			return nil, &planning.ErrInvalidInput{
				Reason: fmt.Sprintf("node %q can_freeze but does not store ambient", ni.ID),
			}
		}

		nodes[ni.ID] = planning.Node{
			ID:           ni.ID,
			Role:         planning.NodeRole(ni.Role),
			Capabilities: caps,
			Storage: planning.StorageCapacity{
				AmbientPallets: ni.AmbientPalletCap,
				FrozenPallets:  ni.FrozenPalletCap,
				ThawedPallets:  ni.ThawedPalletCap,
			},
		}
	}
	return nodes, nil
}

func buildProducts(inputs []ProductInput) (map[string]planning.Product, error) {
	products := make(map[string]planning.Product, len(inputs))
	for _, pi := range inputs {
		if _, dup := products[pi.ID]; dup {
			return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("duplicate product id %q", pi.ID)}
		}
		p := planning.Product{
			ID:                   pi.ID,
			ShelfLifeAmbientDays: pi.ShelfLifeAmbientDays,
			ShelfLifeFrozenDays:  pi.ShelfLifeFrozenDays,
			ShelfLifeThawedDays:  pi.ShelfLifeThawedDays,
			UnitsPerMix:          pi.UnitsPerMix,
			UnitsPerPallet:       pi.UnitsPerPallet,
			UnitsPerLaborHour:    pi.UnitsPerLaborHour,
		}
		products[pi.ID] = planning.WithProductDefaults(p)
	}
	return products, nil
}

func aliasResolver(aliases map[string]string, products map[string]planning.Product) func(string) (string, error) {
	return func(raw string) (string, error) {
		if _, ok := products[raw]; ok {
			return raw, nil
		}
		if canonical, ok := aliases[raw]; ok {
			if _, exists := products[canonical]; exists {
				return canonical, nil
			}
		}
		return "", &planning.ErrAliasUnresolved{RawID: raw}
	}
}

func buildRoutes(inputs []RouteInput, nodes map[string]planning.Node) ([]planning.Route, error) {
	routes := make([]planning.Route, 0, len(inputs))
	for _, ri := range inputs {
		origin, ok := nodes[ri.Origin]
		if !ok {
			return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("route references unknown origin %q", ri.Origin)}
		}
		dest, ok := nodes[ri.Destination]
		if !ok {
			return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("route references unknown destination %q", ri.Destination)}
		}
		route := planning.Route{
			Origin:      ri.Origin,
			Destination: ri.Destination,
			Mode:        planning.TransportMode(ri.Mode),
			TransitDays: ri.TransitDays,
			CostPerUnit: ri.CostPerUnit,
		}
		if !route.FeasibleAt(origin, dest) {
			return nil, &planning.ErrInvalidInput{
				Reason: fmt.Sprintf("route %s->%s mode %s infeasible at endpoints", ri.Origin, ri.Destination, ri.Mode),
			}
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func buildTrucks(inputs []TruckScheduleInput, nodes map[string]planning.Node) ([]planning.TruckSchedule, error) {
	trucks := make([]planning.TruckSchedule, 0, len(inputs))
	for _, ti := range inputs {
		if _, ok := nodes[ti.Origin]; !ok {
			return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("truck %q references unknown origin %q", ti.ID, ti.Origin)}
		}
		for _, dest := range ti.AllowedDestinations {
			if _, ok := nodes[dest]; !ok {
				return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("truck %q references unknown destination %q", ti.ID, dest)}
			}
		}
		weekdays := make([]time.Weekday, 0, len(ti.AllowedWeekdays))
		for _, w := range ti.AllowedWeekdays {
			weekdays = append(weekdays, time.Weekday(w))
		}
		trucks = append(trucks, planning.TruckSchedule{
			ID:                   ti.ID,
			Origin:               ti.Origin,
			AllowedDestinations:  ti.AllowedDestinations,
			AllowedWeekdays:      weekdays,
			PalletCapacity:       ti.PalletCapacity,
			LoadingCostPerPallet: ti.LoadingCostPerPallet,
		})
	}
	return trucks, nil
}

func buildCalendar(inputs []LaborDayInput) planning.LaborCalendar {
	calendar := make(planning.LaborCalendar, len(inputs))
	for _, li := range inputs {
		calendar.Set(li.Date, planning.LaborDay{
			Date:         li.Date,
			IsFixedDay:   li.IsFixedDay,
			FixedHours:   li.FixedHours,
			RegularRate:  li.RegularRate,
			OvertimeRate: li.OvertimeRate,
		})
	}
	return calendar
}

func buildForecast(
	inputs []DemandInput,
	nodes map[string]planning.Node,
	products map[string]planning.Product,
	resolve func(string) (string, error),
) ([]planning.DemandEntry, error) {
	forecast := make([]planning.DemandEntry, 0, len(inputs))
	for _, di := range inputs {
		node, ok := nodes[di.Breadroom]
		if !ok || !node.Capabilities.Has(planning.CapHasDemand) {
			return nil, &planning.ErrInvalidInput{
				Reason: fmt.Sprintf("demand at %q: node does not have_demand", di.Breadroom),
			}
		}
		canonical, err := resolve(di.Product)
		if err != nil {
			return nil, err
		}
		if _, ok := products[canonical]; !ok {
			return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("demand references unknown product %q", di.Product)}
		}
		forecast = append(forecast, planning.DemandEntry{
			Breadroom: di.Breadroom,
			Product:   canonical,
			Date:      di.Date,
			Quantity:  di.Quantity,
		})
	}
	return forecast, nil
}

func buildInitialInventory(
	inputs []InventoryInput,
	nodes map[string]planning.Node,
	products map[string]planning.Product,
	resolve func(string) (string, error),
) ([]planning.InitialInventoryRow, error) {
	rows := make([]planning.InitialInventoryRow, 0, len(inputs))
	for _, ii := range inputs {
		if _, ok := nodes[ii.Node]; !ok {
			return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("initial inventory references unknown node %q", ii.Node)}
		}
		canonical, err := resolve(ii.Product)
		if err != nil {
			return nil, err
		}
		if _, ok := products[canonical]; !ok {
			return nil, &planning.ErrInvalidInput{Reason: fmt.Sprintf("initial inventory references unknown product %q", ii.Product)}
		}
		rows = append(rows, planning.InitialInventoryRow{
			Node:     ii.Node,
			Product:  canonical,
			State:    planning.MaterialState(ii.State),
			Quantity: ii.Quantity,
		})
	}
	return rows, nil
}

func buildCosts(in CostInput, routes []planning.Route) planning.CostStructure {
	transport := make(map[planning.RouteKey]float64, len(routes))
	for _, r := range routes {
		transport[planning.RouteKey{Origin: r.Origin, Destination: r.Destination, Mode: r.Mode}] = r.CostPerUnit
	}
	return planning.CostStructure{
		ProductionUnitCost:   in.ProductionUnitCost,
		TransportCostPerUnit: transport,
		LaborRegularRate:     in.LaborRegularRate,
		LaborOvertimeRate:    in.LaborOvertimeRate,
		HoldingCostPerPalletDay: map[planning.MaterialState]float64{
			planning.StateAmbient: in.HoldingCostAmbientPerDay,
			planning.StateFrozen:  in.HoldingCostFrozenPerDay,
			planning.StateThawed:  in.HoldingCostThawedPerDay,
		},
		PalletEntryCost:            in.PalletEntryCost,
		ShortagePenaltyPerUnit:     in.ShortagePenaltyPerUnit,
		WasteMultiplier:            in.WasteMultiplier,
		DisposalUnitCost:           in.DisposalUnitCost,
		ChangeoverFixedCost:        in.ChangeoverFixedCost,
		ProductIndicatorTieBreaker: in.ProductIndicatorTieBreaker,
	}
}

// checkReachability enforces that every breadroom with positive forecast
// demand is reachable from some node that can produce, or already holds
// positive initial inventory itself. It walks the route graph breadth-
// first from every such source node.
func checkReachability(
	nodes map[string]planning.Node,
	routes []planning.Route,
	forecast []planning.DemandEntry,
	initInv []planning.InitialInventoryRow,
) error {
	adjacency := make(map[string][]string)
	for _, r := range routes {
		adjacency[r.Origin] = append(adjacency[r.Origin], r.Destination)
	}

	reachable := make(map[string]bool)
	queue := make([]string, 0)
	seed := func(id string) {
		if !reachable[id] {
			reachable[id] = true
			queue = append(queue, id)
		}
	}
	for id, n := range nodes {
		if n.Capabilities.Has(planning.CapProduces) {
			seed(id)
		}
	}
	for _, row := range initInv {
		if row.Quantity > 0 {
			seed(row.Node)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[cur] {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	demandNodes := make(map[string]bool)
	for _, d := range forecast {
		demandNodes[d.Breadroom] = true
	}
	for id := range demandNodes {
		if !reachable[id] {
			return &planning.ErrInvalidInput{
				Reason: fmt.Sprintf("breadroom %q has forecast demand but is unreachable from any producing or stocked node", id),
			}
		}
	}
	return nil
}
