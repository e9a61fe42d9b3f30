// Package demand forecasts how busy a charging station will be at a given
// time. A deterministic hourly curve model is optionally blended with an
// advisory learned estimate; the learned side may be missing at any time and
// prediction then degrades to the curve alone. Identical inputs always
// produce identical predictions, which keeps the bucket cache sound.
package demand
