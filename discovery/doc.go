// Package discovery is the facade over a documentation symbol index. It
// loads the search data of one section from disk, keeps the current table
// as an immutable snapshot, and answers lookups, ranked searches and
// symbol descriptions against it.
//
// # Basic Usage
//
//	disc, err := discovery.New(discovery.Options{Dir: "html/search"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer disc.Close()
//
//	if err := disc.Load(ctx); err != nil {
//	    // The facade stays usable but disabled: queries return
//	    // ErrSearchDisabled until a reload succeeds.
//	    log.Printf("search disabled: %v", err)
//	}
//
//	entries, err := disc.Lookup("getname")
//	targets, err := disc.TargetsFor("getname")
//	results, err := disc.Rank("media player", 10)
//	doc, err := disc.Describe("getname", symboldoc.DetailFull)
//
// # Reloading
//
// Reload replaces the snapshot wholesale. Concurrent reloads are collapsed
// into one. A failed reload keeps the previous snapshot, and listeners
// registered with OnChange fire only when the table content changes.
// Watch follows the index directory and reloads after writes settle.
//
// # Thread Safety
//
// All Discovery methods are safe for concurrent use.
package discovery
