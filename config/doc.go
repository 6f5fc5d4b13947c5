/*
Package config loads docstore client settings.

Settings are layered, later sources winning:

 1. Default(): dynamodb backend in us-east-1, 9 throttling retries with at most
    30s of backoff, a one hour wait ceiling and pages of 1000 documents.
 2. An optional YAML file.
 3. Optional .env files, which only fill variables not already set.
 4. DOCSTORE_* environment variables (AWS_REGION, AWS_ACCESS_KEY and
    AWS_SECRET_KEY are honoured as fallbacks).

Example file:

	backend: dynamodb
	region: eu-west-1
	retryAttempts: 5
	retryMaxWait: 10s
	waitCeiling: 2m
	pageSize: 100
	collections:
	  product:
	    partitionKey: category
	    sortKey: id
*/
package config
