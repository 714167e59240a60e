/*
voxfold interactively generates protein backbones whose shape matches a voxel
grid, using the Chroma generative model with an SDF conditioner.

After loading the model weights once, voxfold repeatedly asks for a voxel
file, the number of residues to generate (blank lets the conditioner pick one
from the volume of the shape), the step size used to parse the voxel grid and
an SDF threshold. Enter 'exit' at the path prompt to quit.

For each voxel file shape.voxel, the following are written next to it:

	shape_MMDD_HHMMSS.pdb     the generated backbone
	shape_X_target.pdb        the conditioner's target shape
	shape_X_target_NAME.pdb   the target shape under each extra
	                          -target-axes entry

Existing files with the same names are overwritten.

Usage:
	voxfold [flags]

Details

The model itself runs in a separate bridge executable (see the -chroma flag
and the apps/chroma package). Weights, the access key and the device can be
given as flags or in a JSON file passed to -config:

	{
		"exec": "chroma-bridge",
		"weights_backbone": "/data/chroma/chroma_backbone_v1.0.pt",
		"weights_design": "/data/chroma/chroma_design_v1.0.pt",
		"key": "...",
		"steps": 500
	}

Coordinates of the target shape may be written in more than one axis
convention at once, e.g., -target-axes 'identity swap-xz center,swap-xz'.
*/
package main
