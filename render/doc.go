// Package render turns lookup results into search-box result rows and
// renders them as an HTML results page.
//
// An entry with a single target becomes a direct link with its qualified
// display name shown as the scope. An entry with several targets becomes a
// parent row whose children link to each target in generation order.
package render
