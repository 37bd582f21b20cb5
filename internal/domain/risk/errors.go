package risk

import "errors"

var errNoLabels = errors.New("classifier returned no labels")
