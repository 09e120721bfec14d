/*
Package cash keeps the wallets that executed proposals pay into.

Every transfer is stored as a separate credit entry keyed by the
destination, the paying vault and a per vault sequence. Executions of
different vaults therefore never write the same key, and the balance of a
wallet is the sum of its credits.
*/
package cash
