/*
Package docstore is a facade over an asynchronous document store client.

Reads and writes are issued against a Connection and run either fire-and-forget
or as blocking calls that return once the operation reached a terminal event.
Results are delivered through callbacks:

  - OnPage receives each page of a query, in feed order
  - OnResult receives each written document (nil for deletes)
  - OnError receives the terminal failure, if any
  - OnComplete runs once on success

Exactly one of OnError and OnComplete runs per operation. Configuration
mistakes are returned as errors.ValidationError before any I/O; failures of the
store are delivered through OnError, or logged and dropped when it is nil.

Basic Usage:

	cfg, _ := config.Load("docstore.yaml")
	client, err := docstore.Open(ctx, *cfg, docstore.WithLogger(logger))
	if err != nil {
	    return err
	}
	defer client.Close()

	conn := client.Connection("mydb", "product")

	// Blocking query
	err = conn.GenerateQuery("SELECT * FROM product WHERE product.id = @id").
	    AddParam("@id", "record_1").
	    SetBlocking(true).
	    Execute(ctx, func(page []document.Document) {
	        for _, doc := range page {
	            p, _ := document.As[Product](doc)
	            fmt.Println(p.Name)
	        }
	    }, nil, nil)

	// Concurrent batch upsert reported as one operation
	err = conn.GenerateStatement().
	    SetBlocking(true).
	    SetCostReporter(func(r docstore.CostReport) {
	        log.Printf("%d documents, %.2f total, %.2f average", r.Documents, r.TotalCharge, r.Average())
	    }).
	    MultiUpsert(ctx, []any{p1, p2, p3}, nil, onError, nil)

Blocking calls wait at most the configured wait ceiling (one hour by default).
When it elapses, or ctx ends, the operation is cancelled and the call returns
errors.WaitTimeoutError or errors.InterruptedError.

Backends implement datastore.AsyncClient: datastore/ddb for DynamoDB and
datastore/mock for an in-memory store.
*/
package docstore
