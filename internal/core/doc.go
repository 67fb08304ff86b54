// Package core provides the dashboard's data model and computations.
//
// This package is independent of any UI or transport layer. The web server
// and the aidrugctl CLI both use it without modification.
//
// # Architecture
//
// The package is organized around a few concepts:
//
//   - Dataset: the company table, loaded once from CSV ([LoadCSVFile]) or
//     Postgres ([LoadPostgres]) and never modified afterwards.
//   - Filter and aggregate: [Filter] restricts records by country set and
//     category; [Aggregate] and [AggregateDomain] group them by a
//     [Dimension] and measure each group with a [Metric].
//   - Selection: the filter values of one user ([Selection]).
//   - Graph: derivations and views wired to selection fields ([Graph]).
//     One [Event] propagates through the graph and recomputes each
//     dependent view exactly once.
//   - Service: sessions, keyword extraction and table paging on top of the
//     [Dashboard].
//
// # Selection Graph
//
// Derivations write selection fields from other fields:
//
//	region         -> countries   (the region's country list)
//	category_click -> category    (the clicked bar, or "All" when cleared)
//
// Views read fields and never read each other:
//
//	founded_year_graph, venture_stage_graph, country_pie_graph,
//	map_graph, category_graph   <- metric, countries, category
//	table                       <- countries, category, map
//	word_cloud                  <- category
//
// Unknown metric values fall back to the default metric. Unknown countries,
// regions and categories are accepted and match nothing.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DATA001-DATA003: dataset errors (missing columns, invalid CSV, source)
//   - SES001: session not found
//   - EVT001: invalid event
//   - VIEW001: unknown view
//   - EXP001: export failed
//   - RATE001: too many requests
package core
