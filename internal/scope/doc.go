/*
Package scope implements the scope tree: a nested mapping that separates
structural nodes (Branch) from payload nodes (Leaf).

Fields of a form are grouped into arbitrarily deep scopes. Every node in
the tree is either a *Branch holding named children or a Leaf carrying a
value, so traversal is a type switch and never depends on the shape of
the payload. A path is either branches all the way down to a leaf, or it
does not exist; a path can never cross a leaf.

Branches are persistent. With, Without and Update return a new tree that
shares every untouched subtree with the receiver, and never modify the
receiver itself. A nil *Branch behaves as an empty tree.
*/
package scope
