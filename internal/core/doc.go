// Package core holds the back-office domain: identifiers, currency
// conversion, input validation and the order and product aggregates.
//
// Nothing in this package touches a database, cache or HTTP request. Storage
// and transport sit behind the small interfaces declared here ([RateCache],
// [RateHistory]) and are implemented under internal/storage. Time always
// comes from a [clock.Clock] so tests can pin the calendar day.
//
// # Identifiers
//
// Order numbers look like ORD-250315-007 and are dated in KST:
//
//	num, err := core.GenerateOrderNumber(7, time.Now())
//
// SKUs look like BAG-Speedy30-BRO-LOU-7K2QF. The last segment is random:
//
//	sku, err := core.GenerateSKU(core.SKUInput{Category: "bag", Model: "Speedy 30", Color: "brown", Brand: "Louis"})
//
// # Exchange rates
//
// Rates are KRW per CNY. [RateResolver] answers today's rate from the cache,
// then history, then [DefaultExchangeRate]. [Convert] and [DualAmount] do the
// arithmetic and never round; rounding happens only in display helpers.
//
// # Orders
//
// Orders move PAID → SHIPPED → DONE, and SHIPPED or DONE → REFUNDED. Illegal
// moves return a [*TransitionError] whose message names the current status.
//
// # Errors
//
// Domain failures are sentinel errors ([ErrInvalidArgument],
// [ErrOrderNotFound], ...). [MapError] turns any error into a coded
// [UserMessage] for display.
package core
