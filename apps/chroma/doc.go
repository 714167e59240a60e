/*
Package chroma provides a wrapper for running the Chroma generative protein
model with shape conditioning.

Chroma itself is not reimplemented here. Instead, every phase (registering an
access key, loading weights, building an SDF conditioner from a voxel grid and
sampling a backbone) is delegated to a bridge executable that hosts the model.
The bridge is run once per phase and reports its results as JSON files, which
are read back into Go values. State that must survive between the conditioner
phase and the sampling phase (the conditioner itself) is kept by the bridge in
a file inside a temporary directory owned by a Conditioner value. Call
Conditioner.Clean when done with it.

The bridge is invoked as

	chroma-bridge register -key KEY
	chroma-bridge load -backbone W -design W -device DEVICE
	chroma-bridge condition LOAD-ARGS -voxel PATH -length N -step N
		-threshold T -state FILE -o FILE
	chroma-bridge sample LOAD-ARGS -state FILE -length N -steps N
		-samples 1 -o FILE

Coordinates in the JSON output are nested as [batch][atom][3]. Only a batch
size of one is supported.
*/
package chroma
