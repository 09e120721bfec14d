/*
Package membership implements the membership ledger: the roster of every
vault and the roles its members hold.

Each member occupies a slot in the roster of a vault. Slots are assigned
sequentially and members are never removed, only deactivated, so that slots
stay stable. A role is one of Owner, User or Inactive. Every active vault has
at least one owner, and never requires more approvals than it has owners.

Two secondary indexes are maintained together with the roster, within the
same write: the seat index, used to find the member of a vault by its
identity, and the identity index, used to list all vaults an identity belongs
to.
*/
package membership
