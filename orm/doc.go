/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* It has a primary key (which may be composite) chosen by the caller.
* It may possess one or more secondary indexes (1:1 or 1:N).
* Easy queries for one and iteration over a key prefix.

Secondary indexes are stored natively: every indexed value is a separate
database key. Two writers that index different entities never write to the
same key, which allows independent cache wraps to be written in any order.

Models are serialized with go-amino. Use Marshal and Unmarshal helpers to
implement the treasury.Persistent interface.
*/
package orm
