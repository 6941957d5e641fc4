package search_test

import (
	"fmt"

	"github.com/jonwraymond/docsearch/index"
	"github.com/jonwraymond/docsearch/search"
)

func ExampleRankedSearcher() {
	s := search.NewRankedSearcher(search.Config{})
	defer s.Close()

	tbl, err := index.NewTable([]index.Entry{
		{Label: "getname", Name: "getName", Targets: []index.Target{
			{Document: "class_player.html", Anchor: "a1", Display: "Player::getName()"},
		}},
		{Label: "setname", Name: "setName", Targets: []index.Target{
			{Document: "class_player.html", Anchor: "a2", Display: "Player::setName()"},
		}},
	}, index.TableOptions{Searcher: s})
	if err != nil {
		fmt.Println(err)
		return
	}

	results, err := tbl.Search("getname", 5)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(results[0].Label)
	// Output:
	// getname
}
