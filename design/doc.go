/*
Package design runs the interactive loop that turns voxel grids into protein
backbones.

Each iteration asks for a voxel path and conditioner parameters, builds a
shape conditioner, samples a structure and writes both the structure and the
conditioner's target shape as PDB files next to the voxel grid. The model is
reached through the Generator interface so that the loop can be driven
without a real model.
*/
package design
