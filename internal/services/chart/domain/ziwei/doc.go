// Package ziwei computes Zi Wei Dou Shu natal charts.
//
// CalculateChart is the entry point. It converts the solar birth date to the
// lunisolar calendar, resolves the Life and Body palaces and the Five-Element
// Bureau, lays out the twelve palaces, places the major and auxiliary stars
// with their brightness and Four Transformations, assigns decade age ranges and
// assembles the chart metadata.
//
// Every stage is a pure function over read-only tables, so charts are
// deterministic and the package is safe for concurrent use. Palaces are stored
// in arrays indexed by Branch; GridIndex gives each palace's display cell.
package ziwei
