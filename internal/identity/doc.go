// Package identity is the property-mutation engine behind hostnamed.
//
// An Engine owns the seven identity attributes, split into three lock
// groups (runtime hostname, static hostname, machine info). Every change
// request follows the same path:
//
//	received -> authorization-pending -> validating -> persisting -> committed
//
// with denied, auth-error, read-only-rejected and failed as the other
// terminal phases. Authorization runs without any lock held; the group
// lock covers validation, persistence, the in-memory commit and the
// broadcast, so observers see changes in commit order.
//
// Racing writers of the same attribute are not ordered: whichever takes
// the group lock last wins, in memory and on disk alike.
package identity
