package source

import "errors"

// UnsupportedSourceError tells the aggregator to try the next registered source
var UnsupportedSourceError = errors.New("unsupported query for this source")
