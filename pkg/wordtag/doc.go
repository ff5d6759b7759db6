// Package wordtag holds the in-memory keyed collection of tag/word/details
// entries and the three-way diff used to reconcile two such collections.
//
// Entries are addressed by a composite key of the form "tag:word". Each part
// must be a non-empty run of letters, digits and underscores.
//
//	local := wordtag.New()
//	_ = local.Add("animals", "cat", "meows")
//
//	remote := wordtag.New()
//	_ = remote.Add("animals", "cat", "purrs")
//	_ = remote.Add("animals", "dog", "barks")
//
//	d := local.Diff(remote, wordtag.Override)
//	// d.OnlyInOther holds animals:dog, d.Both holds animals:cat -> "purrs"
package wordtag
