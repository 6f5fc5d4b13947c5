/*
Package registry manages per-collection key schemas for docstore backends.

A key schema names the attributes that identify a document and the attribute a
partition-scoped query narrows on:

	schemas := registry.NewKeySchemaRegistry()
	_ = schemas.Register("product", registry.KeySchema{
	    PartitionKey: "category",
	    SortKey:      "id",
	})

	schemas.Lookup("product") // {category id}
	schemas.Lookup("orders")  // DefaultKeySchema: {id}

Each vendor client owns its own registry, usually populated from the collections
section of the configuration file.
*/
package registry
