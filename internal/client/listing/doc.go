// Package listing keeps one paginated view over a sequence of resources.
//
// The item set is only ever replaced wholesale, either by LoadDefault (the
// baseline collection: all, trending or bookmarks) or by a result set handed
// over by a producer such as the search bar. Every replacement resets the
// page to 1. The current page is always within [1, TotalPages()].
//
// Replacements are sequenced with monotonically increasing tickets. A result
// that arrives after a newer replacement has already been committed is
// discarded, so a slow default fetch cannot overwrite a faster later search.
package listing
