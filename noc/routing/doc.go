// Package routing ships concrete RoutingFunc implementations and
// registers them with the noc package's routing registry via init(),
// breaking the import cycle between the interface owner (noc) and its
// implementations — the same pattern the teacher uses to let
// sim/kv and sim/latency register concrete stores/models against
// sim's factory variables without sim importing either subpackage.
//
// Importing this package for its side effect is required before
// noc.NewTrafficManager can resolve a "dimension_order_mesh" or
// "dimension_order_torus" routing_function/topology pair:
//
//	import _ "github.com/noc-sim/noc-sim/noc/routing"
package routing
