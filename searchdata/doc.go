// Package searchdata reads and writes the search index files a documentation
// generator emits next to its HTML output.
//
// Each file holds one JavaScript array literal:
//
//	var searchData=
//	[
//	  ['getname',['getName',['../class_a_w_e_1_1_media_item.html#a20a3',1,'AWE::MediaItem::getName()'],...]],
//	  ...
//	];
//
// A record is [label, [name, target...]] and a target is
// [href, parentFrameFlag, display]. Hrefs are relative to the search/
// directory, so the leading "../" is stripped when decoding and restored
// when encoding. Display text is HTML-escaped in the file and unescaped in
// memory.
//
// Files are split per section and shard: functions_0.js, functions_1.js,
// classes_0.js and so on. [LoadDir] reads every shard of a section
// concurrently and returns the entries in shard order.
//
// Any structural problem makes the whole file invalid; decoders never return
// partial tables. Errors wrap [ErrMalformed] or [ErrNoIndex].
package searchdata
