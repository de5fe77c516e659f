// Package walker turns a local directory tree into an ordered sequence of
// upload intents.
//
// The walk is lazy: nothing is read from disk until the sequence is ranged
// over, and each directory is read only when the walk reaches it. For every
// directory the walker first yields one intent per entry (in lexical order)
// and then descends into the subdirectories, so a folder intent always
// precedes the intents of its children.
//
//	for intent, err := range walker.Walk("photos") {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(intent.Kind, intent.RelPath)
//	}
//
// Symbolic links are never followed into. A link that points at a
// directory yields a folder intent with no children.
package walker
