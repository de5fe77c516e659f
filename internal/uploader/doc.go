// Package uploader mirrors a local file or directory tree onto Google Drive.
//
// An Uploader runs the intents produced by the walker against a
// RemoteClient, one at a time and in walk order. It remembers the remote id
// of every folder it creates so children can be parented correctly; that
// mapping is the only state carried across a run.
//
// A run either completes or aborts on the first error. Nothing already
// created on Drive is removed after an abort, and a second run over the
// same tree creates a second, independent copy.
package uploader
