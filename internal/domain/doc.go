// Package domain models the three NASA datasets served by the dashboard.
//
// # Data Sources
//
// Meteorite landings come from the NASA Open Data portal
// (https://data.nasa.gov/dataset/meteorite-landings), a comma-delimited CSV
// with one row per recovered meteorite. Fireball/bolide reports come from the
// NASA JPL fireball database, distributed as a semicolon-delimited CSV.
// Near-Earth objects come from the NASA NeoWs close-approach dataset,
// comma-delimited.
//
// # Dataset Conventions
//
// Meteorites:
//
//	"year" is a numeric year, sometimes serialized with a fractional part
//	("1880.0"). "mass (g)" is grams. "fall" is "Fell" (observed falling) or
//	"Found" (discovered later). "reclat"/"reclong" are WGS-84 degrees and may
//	be empty for unlocated finds. Rows missing year, mass, or coordinates are
//	unusable for every chart and are dropped during derivation, as are rows
//	with a non-positive mass.
//
// Bolides:
//
//	"Date/Time" is free text, usually "2006-01-02 15:04:05" or a bare date,
//	in UTC. Unparseable values coerce to the zero time rather than failing;
//	such rows keep their measurements but are excluded from time-based views.
//	Energies: "Impact energy (kt)" in kilotons TNT, "Radiated Energy (e10 J)"
//	in units of 1e10 joules. "Altitude (km)" is the explosion height.
//	Missing numeric measurements read as zero (unmeasured).
//
// NEOs:
//
//	"name" embeds the provisional designation, and with it the discovery
//	year, in parenthesized form: "2017 AB12 (2017 AB12)". The year is the
//	4-digit token starting "19" or "20" immediately after an opening
//	parenthesis; records without such a token have no usable discovery year
//	and are dropped. Mean diameter is the arithmetic mean of the min/max
//	diameter estimates. "hazardous" is a boolean ("True"/"False").
//
// # Derivation
//
// Each dataset has a raw row type mirroring the CSV columns as strings and a
// Derive function producing the typed record. Derive returns a sentinel
// error naming the drop reason when a row fails its invariants; callers
// count drops by reason and move on. Nothing in this package mutates rows
// after derivation.
package domain
