/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"github.com/suparena/docstore/document"
)

// OnPage receives one page of query results in feed order. A query with no
// matches delivers a single empty page.
type OnPage func(page []document.Document)

// OnResult receives the document written by an upsert, or nil for a delete.
type OnResult func(doc *document.Document)

// OnError receives the terminal failure of an operation. When it is nil the
// failure is logged and dropped.
type OnError func(err error)

// OnComplete runs once after an operation succeeded.
type OnComplete func()

// CostReporter receives the aggregate cost of every completed write.
type CostReporter func(report CostReport)
