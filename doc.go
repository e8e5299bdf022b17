// Package itfaker generates plausible Italian first names, optionally
// gender-specific and optionally prefixed with a professional title
// ("Dott.", "Ing.", "Prof.ssa", ...).
//
// Components:
//   - weighted.Selector: draws a value with probability proportional to its
//     weight.
//   - catalog: loads the male and female name lists from a corpus.Source
//     once, caches one selector per gender, and drops them on ClearCache.
//   - Generator: resolves a gender, draws a name, title-cases it with Italian
//     casing rules and optionally prepends a title.
//
// Lifecycle:
//
//	Unloaded --Preload / first Generate--> Loaded --ClearCache--> Unloaded
//
// Usage:
//
//	g, _ := itfaker.New(itfaker.Options{})
//	name, _ := g.Generate(ctx, nil)                                     // "Giulia"
//	name, _ = g.Generate(ctx, &itfaker.Request{Gender: itfaker.GenderPtr(itfaker.Male), Prefix: true}) // "Ing. Marco"
//
// Generators sharing a genstore.GenStore invalidate together: ClearCache on
// one makes every other reload its catalog on its next call.
package itfaker
