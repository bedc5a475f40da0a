package ai

// filenamePrompt classifies by filename alone. The category definitions and
// examples keep small local models on the rails; the model must answer with
// a bare category name.
const filenamePrompt = `Classify this file into exactly ONE category based on its filename.

Categories:
- Images: photos, graphics, screenshots, icons, wallpapers, logos, banners (jpg, png, gif, svg, webp, ico, bmp)
- Documents: PDFs, Word docs, spreadsheets, presentations, text files, invoices, receipts, contracts, reports (pdf, doc, docx, txt, xls, xlsx, ppt)
- Videos: movies, clips, recordings, tutorials, screen recordings (mp4, mkv, avi, mov, webm)
- Audio: music, songs, podcasts, voice memos, sound effects (mp3, wav, flac, m4a, ogg)
- Archives: zip files, compressed files, backups, tarballs (zip, rar, 7z, tar, gz)
- Code: source code, scripts, config files, markup (py, js, html, css, json, xml, java, cpp)
- Executables: programs, installers, apps, batch files (exe, msi, dmg, app, bat, sh)
- Fonts: font files (ttf, otf, woff, woff2)
- Other: anything that doesn't fit above

Examples:
- "vacation_photo.jpg" -> Images
- "invoice_2024.pdf" -> Documents
- "react_app.zip" -> Archives (it's compressed)
- "background_music.mp3" -> Audio
- "setup.exe" -> Executables
- "resume_john_doe.docx" -> Documents
- "script.py" -> Code

IMPORTANT: Respond with ONLY the category name, nothing else. No explanations.

Filename: %s
Category:`

// contentPrompt classifies using the filename plus a bounded excerpt of the
// file's contents.
const contentPrompt = `Classify this file based on its filename AND contents.

Categories:
- Images: photos, graphics, screenshots
- Documents: text documents, reports, invoices, receipts, contracts
- Videos: video files, recordings
- Audio: music, podcasts, sound files
- Archives: compressed/zip files, backups
- Code: source code, scripts, config files
- Executables: programs, installers
- Fonts: font files
- Other: anything else

Filename: %s

File Contents (first 500 chars):
%s

Based on the filename and contents, what category does this belong to?
Respond with ONLY the category name, nothing else.

Category:`

// visionPrompt classifies an image by what it depicts. Scanned documents and
// text-heavy images belong in Documents rather than Images.
const visionPrompt = `Analyze this image and classify it.

If it shows:
- A photo, artwork, graphic, screenshot, icon, or design -> respond "Images"
- A scanned document, receipt, invoice, text-heavy image -> respond "Documents"
- Something else -> respond "Other"

Respond with ONLY one word: Images, Documents, or Other.`
