/*
Package ddb provides a DynamoDB implementation of datastore.AsyncClient.

Collections map to tables of the same name. The key attributes of each table
come from a registry.KeySchemaRegistry (partition key "id" when a table is not
registered), and a document's self-link is built from its key values:

	/dbs/<db>/colls/<table>/docs/<partition>[/<sort>]

Queries:
SQL-like document queries are executed as PartiQL statements. The collection
alias is replaced by the quoted table name, alias.field references become quoted
attribute names and @name parameters become positional:

	SELECT * FROM p WHERE p.category = @cat ORDER BY p.id
	SELECT * FROM "product" WHERE "category" = ? ORDER BY "id"

A partition key narrows the statement with an extra equality on the table's
partition attribute. DynamoDB pages are re-cut to the requested page size and
the consumed capacity of each request is reported as the request charge.

Writes:
Upserts are PutItem calls. Deletes are DeleteItem calls conditioned on the item
existing, so deleting a missing document yields an errors.NotFoundError.

Throttling is retried inside the AWS SDK using the standard retryer configured
from config.Config.RetryAttempts and RetryMaxWait. Open waits for every
configured table to become ACTIVE before returning.
*/
package ddb
