// Package palette reduces a thread catalog to the few threads that best
// reproduce an image.
//
// The heavy lifting is delegated to a Matcher, the closest-subset service:
// given the catalog palette, a color budget k and an image, it returns at
// most k catalog colors, or an *InfeasibleError carrying how many distinct
// catalog colors the image can actually use. MedoidMatcher is the built-in
// implementation; it counts a color as usable only when the quantizer that
// will map the image gives it at least one pixel.
//
// Reducer wraps a Matcher with the fallback policy: an infeasible request is
// retried exactly once with the reported achievable count. Matchers must make
// that achievable count monotonic, i.e. a request for Possible colors never
// reports infeasibility again; Reducer treats a second infeasibility, or a
// Possible that is not below the request, as a fatal contract violation.
package palette
