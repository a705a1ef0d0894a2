// Package tensor provides the descriptor types shared by the KScope engine
// and profiler: shapes, data types, devices, and the RawTensor descriptor
// that identifies a kernel's inputs and outputs.
//
// A RawTensor owns a flat byte buffer plus the metadata needed to interpret
// it (shape, strides, dtype, device). Every RawTensor also carries a DataID,
// an opaque process-unique handle under which backends register the backing
// data for asynchronous readback.
package tensor
