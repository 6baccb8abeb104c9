package typesystem

// AnalysedType is the externally visible type model used at the system
// boundary (RibInputTypeInfo, the gRPC wire format). It is isomorphic to
// InferredType once inference has finished, so the core reuses the same
// representation rather than maintaining two parallel type lattices; JSON
// schema / WIT conversion of AnalysedType is an external collaborator's
// concern and stays out of this package.
type AnalysedType = Type
